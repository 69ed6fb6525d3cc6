package models

// Settings mirrors a project settings file. Pointer fields distinguish
// "not set" from an explicit zero value.
type Settings struct {
	BaseDir           string      `yaml:"base_dir,omitempty"`
	Debug             *bool       `yaml:"debug,omitempty"`
	StaticURL         string      `yaml:"static_url,omitempty"`
	StaticFilesDirs   []string    `yaml:"staticfiles_dirs,omitempty"`
	TemplateDirs      []string    `yaml:"template_dirs,omitempty"`
	ServerCommand     []string    `yaml:"server_command,omitempty"`
	ServerPlusCommand []string    `yaml:"server_plus_command,omitempty"`
	TailwindCLI       TailwindCLI `yaml:"tailwind_cli,omitempty"`
}

// TailwindCLI holds the TAILWIND_CLI_* options.
type TailwindCLI struct {
	Version           string  `yaml:"version,omitempty"`
	Path              *string `yaml:"path,omitempty"`
	AutomaticDownload *bool   `yaml:"automatic_download,omitempty"`
	SrcCSS            string  `yaml:"src_css,omitempty"`
	DistCSS           string  `yaml:"dist_css,omitempty"`
	ConfigFile        string  `yaml:"config_file,omitempty"`
	SrcRepo           string  `yaml:"src_repo,omitempty"`
	AssetName         string  `yaml:"asset_name,omitempty"`
	VerifyChecksum    *bool   `yaml:"verify_checksum,omitempty"`
}

// Platform is the (os, arch) pair in the naming used by Tailwind release assets.
type Platform struct {
	OS   string
	Arch string
}

// Extension is ".exe" on windows and empty elsewhere.
func (p Platform) Extension() string {
	if p.OS == "windows" {
		return ".exe"
	}
	return ""
}

func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}

// Checksum is one line of a release's sha256sums file.
type Checksum struct {
	AssetName string
	SHA       string
}
