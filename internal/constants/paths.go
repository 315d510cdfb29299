package constants

// Configuration file names.
const (
	// ConfigFileName is the name of both the global and the project configuration file.
	ConfigFileName = "config.yaml"
)

// ArtifactExtensions returns the extensions hashed into the checksum manifest
// and copied into the bundle, in canonical order.
func ArtifactExtensions() []string {
	return []string{ExtPatch, ExtXML, ExtROM, ExtDat}
}

// RequiredFiles returns the paths that must exist in every working directory.
func RequiredFiles() []string {
	return []string{ReadmeFile, RequiredConfigFile}
}
