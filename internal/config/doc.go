// Package config loads strand.json project configuration.
package config
