package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStash(); err != nil {
		return err
	}
	if err := c.validatePornDB(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStash() error {
	if c.Stash.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stashscraper/config.toml"
		}
		return fmt.Errorf("stash.url is required. Edit %s (create with 'stashscraper config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Stash.URL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("stash.url must be an http(s) URL, got %q", c.Stash.URL)
	}
	if c.Stash.Password != "" && c.Stash.Username == "" {
		return errors.New("stash.username must be set when stash.password is set")
	}
	return nil
}

func (c *Config) validatePornDB() error {
	if c.PornDB.BaseURL == "" {
		return errors.New("porndb.base_url must be set")
	}
	parsed, err := url.Parse(c.PornDB.BaseURL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("porndb.base_url must be a URL, got %q", c.PornDB.BaseURL)
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.DirsInQuery < 0 {
		return errors.New("query.dirs_in_query must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
