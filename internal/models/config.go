package models

// Config contains configuration for building the update list
type Config struct {
	// Package database location
	RootDir      string `yaml:"root_dir"`
	Architecture string `yaml:"architecture"`

	// Security classification
	Dist   string `yaml:"dist"`   // Release codename, e.g. "jammy"
	Vendor string `yaml:"vendor"` // Expected Origin of the security archive

	// Phased updates
	MachineIDFile              string `yaml:"machine_id_file"`
	AlwaysIncludePhasedUpdates bool   `yaml:"always_include_phased_updates"`
	NeverIncludePhasedUpdates  bool   `yaml:"never_include_phased_updates"`

	// Application lookup
	ApplicationDirs []string `yaml:"application_dirs"`
	AppInstallDir   string   `yaml:"app_install_dir"`
	CurrentDesktop  string   `yaml:"current_desktop"`

	// Base system grouping
	FlavorPackages []string `yaml:"flavor_packages"`
	MetaPackages   []string `yaml:"meta_packages"`
	KernelPackages []string `yaml:"kernel_packages"`
}
