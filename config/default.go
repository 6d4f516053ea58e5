package config

import _ "embed"

// DefaultConfigYAML 内置默认配置，编译时嵌入二进制
//
//go:embed default.yaml
var DefaultConfigYAML []byte
