/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package config

import (
	"io/ioutil"

	log "github.com/cihub/seelog"
	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
)

// Config object to store hierarchical configurations into.
// See https://godoc.org/github.com/elastic/go-ucfg#Config
type Config ucfg.Config

var configOpts = []ucfg.Option{
	ucfg.PathSep("."),
	ucfg.AppendValues,
	ucfg.VarExp,
	ucfg.ResolveNOOP,
}

// NewConfig create a pretty new config
func NewConfig() *Config {
	return fromConfig(ucfg.New())
}

// NewConfigFrom get config instance
func NewConfigFrom(from interface{}) (*Config, error) {
	c, err := ucfg.NewFrom(from, configOpts...)
	return fromConfig(c), err
}

// NewConfigWithYAML load config from yaml
func NewConfigWithYAML(in []byte, source string) (*Config, error) {
	opts := append(
		[]ucfg.Option{
			ucfg.MetaData(ucfg.Meta{Source: source}),
		},
		configOpts...,
	)
	c, err := yaml.NewConfig(in, opts...)
	return fromConfig(c), err
}

// LoadFile loads a yaml config file
func LoadFile(path string) (*Config, error) {
	in, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := NewConfigWithYAML(in, path)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded config file: %v", path)
	return c, nil
}

func (c *Config) Unpack(to interface{}) error {
	return c.access().Unpack(to, configOpts...)
}

func (c *Config) Merge(from interface{}) error {
	return c.access().Merge(from, configOpts...)
}

func (c *Config) HasField(name string) bool {
	return c.access().HasField(name)
}

func (c *Config) Child(name string, idx int) (*Config, error) {
	sub, err := c.access().Child(name, idx, configOpts...)
	return fromConfig(sub), err
}

func (c *Config) Enabled(defaultV bool) bool {
	type enabled struct {
		Enabled bool `config:"enabled"`
	}
	temp := enabled{Enabled: defaultV}
	if err := c.Unpack(&temp); err != nil {
		return defaultV
	}
	return temp.Enabled
}

func fromConfig(in *ucfg.Config) *Config {
	return (*Config)(in)
}

func (c *Config) access() *ucfg.Config {
	return (*ucfg.Config)(c)
}
