package config

const (
	// MaxAppIDLength is the maximum length for application ids.
	MaxAppIDLength = 64

	// MaxEnvLength is the maximum length for environment names (DEV, FAT, UAT, PRO...).
	MaxEnvLength = 16

	// MaxClusterNameLength is the maximum length for cluster names.
	MaxClusterNameLength = 32

	// MaxNamespaceNameLength is the maximum length for namespace names,
	// including the org prefix of public namespaces (e.g. "FX.hermes").
	MaxNamespaceNameLength = 128

	// MaxAssociatedPageSize caps the page size of associated namespace listings.
	MaxAssociatedPageSize = 100
)
