//go:build production

package config

// Production builds never honor VOTEDESK_DEV_MODE.
const devModeAllowed = false
