package config

const (
	defaultLibraryDir       = "~/.local/share/lectern/library"
	defaultLegacyDir        = "~/.local/share/lectern/assets"
	defaultAudioDir         = "~/.local/share/lectern/audio"
	defaultStaticMetaDir    = "~/.local/share/lectern/worksheets"
	defaultDataDir          = "~/.local/share/lectern/data"
	defaultLogDir           = "~/.local/share/lectern/logs"
	defaultAPIBind          = "127.0.0.1:7823"
	defaultSignedURLTTL     = 300
	defaultAssetExtension   = ".pdf"
	defaultMaxAssetBytes    = 64 << 20
	defaultMinFreeDiskBytes = 256 << 20
	defaultIdleSegmentEnd   = 4.0
	defaultTalkSegmentStart = 5.0
	defaultVideoDuration    = 12.0
	defaultLoopEpsilon      = 0.3
	defaultReadyTimeoutMS   = 3000
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:    defaultLibraryDir,
			LegacyDir:     defaultLegacyDir,
			AudioDir:      defaultAudioDir,
			StaticMetaDir: defaultStaticMetaDir,
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			APIBind:       defaultAPIBind,
		},
		Content: Content{
			SignedURLTTL:     defaultSignedURLTTL,
			AssetExtension:   defaultAssetExtension,
			MaxAssetBytes:    defaultMaxAssetBytes,
			MinFreeDiskBytes: defaultMinFreeDiskBytes,
		},
		Playback: Playback{
			IdleSegmentEnd:   defaultIdleSegmentEnd,
			TalkSegmentStart: defaultTalkSegmentStart,
			VideoDuration:    defaultVideoDuration,
			LoopEpsilon:      defaultLoopEpsilon,
			ReadyTimeoutMS:   defaultReadyTimeoutMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
			Access:         false,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
