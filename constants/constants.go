package constants

import "os"

func GetCacheDir() string {
	path := os.Getenv("CACHE_PATH")
	if path != "" {
		return path
	}
	return "./cache"
}

func GetLibraryPath() string {
	path := os.Getenv("LIBRARY_PATH")
	if path != "" {
		return path
	}
	return "./tabs.db"
}

func GetMetadataTable() string {
	name := os.Getenv("METADATA_TABLE")
	if name != "" {
		return name
	}
	return "tabscribe-metadata"
}

func GetMetadataEndpoint() string {
	return os.Getenv("METADATA_ENDPOINT")
}

// Analysis frame geometry. 1024-sample windows with 50% overlap keep the
// onset resolution under 12ms at 44.1kHz.
const (
	FrameSize = 1024
	HopSize   = FrameSize / 2
)

const DefaultSampleRate = 44100
