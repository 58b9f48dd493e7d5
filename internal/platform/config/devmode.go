//go:build !production

package config

const devModeAllowed = true
