// Package constants provides centralized constant values used throughout relpack.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names used by relpack for its own data.
const (
	// RelpackHome is the hidden directory name where relpack stores its data.
	// It exists both in the user's home directory and in a project root.
	RelpackHome = ".relpack"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Working directory contract.
const (
	// ConfigDir is the directory holding the XML configuration files.
	ConfigDir = "configs"

	// ReadmeFile is the README shipped in every bundle.
	ReadmeFile = "README.md"

	// RequiredConfigFile is the XML configuration every release must carry.
	RequiredConfigFile = "configs/samuil1337.xml"

	// ChecksumFile is the checksum manifest handed from the checksum step to packaging.
	ChecksumFile = "checksums.txt"

	// ReleaseNotesFile is the rendered release notes document.
	ReleaseNotesFile = "RELEASE_NOTES.md"

	// ChangelogFile is maintained by the semantic publisher only.
	ChangelogFile = "CHANGELOG.md"
)

// Artifact file extensions, including the leading dot.
const (
	// ExtPatch marks a patch file.
	ExtPatch = ".patch"

	// ExtXML marks an XML configuration file.
	ExtXML = ".xml"

	// ExtROM marks a ROM image.
	ExtROM = ".rom"

	// ExtDat marks a data blob.
	ExtDat = ".dat"
)

// Release archive naming.
const (
	// ArchivePrefix is the common prefix of every release archive name.
	ArchivePrefix = "qemu-anti-detection"

	// BranchArchiveSuffix is appended to ArchivePrefix for branch-push releases.
	BranchArchiveSuffix = "release"

	// ArchiveExt is the archive file extension.
	ArchiveExt = ".tar.gz"

	// UnknownVersion is reported for patch files without a dotted-triple version.
	UnknownVersion = "unknown"
)

// Trigger defaults.
const (
	// DefaultMainBranch is the branch whose pushes run the semantic publisher.
	DefaultMainBranch = "main"

	// DefaultTagPattern is the glob a tag must match to run the tag publisher.
	DefaultTagPattern = "v*"
)

// Timeout configurations for external commands.
const (
	// DefaultPatchTimeout bounds a single patch dry-run.
	DefaultPatchTimeout = 30 * time.Second

	// DefaultPublishTimeout bounds a publisher invocation.
	DefaultPublishTimeout = 10 * time.Minute
)

// Log rotation settings for the CLI log file.
const (
	// CLILogFileName is the name of the global CLI log file.
	CLILogFileName = "relpack.log"

	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the age after which rotated files are removed.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Permissions for files and directories created by relpack.
const (
	// DirPerm is used for created directories.
	DirPerm = 0o750

	// FilePerm is used for written release files.
	FilePerm = 0o644
)
