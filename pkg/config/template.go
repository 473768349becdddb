package config

// Template is the bsindex.yaml written by `bsindex init`.
const Template = `version: 1
repository:
  name: my-repository
  base_url: https://example.com/data
  mirrors: []
source:
  type: dir
  path: .
  ref: ""
  include: []
  exclude:
    - ".github/**"
    - "**/*.md"
    - "out/**"
    - "bsindex.*"
  strip_components: 0
  max_file_size: 0
output:
  dir: out
  backup: none
  prune: false
  mode: "0644"
build:
  workers: 0
  strict: false
log:
  level: info
  format: console
metrics:
  textfile: ""
`
