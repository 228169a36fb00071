package config

const (
	defaultSnapshotPath = "~/.local/share/wordcode/snapshot.db"
	defaultLogDir       = "~/.local/share/wordcode/logs"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultMaxVocabSize = 1000
	defaultSeed         = 42
	defaultCodeLength   = 8
	defaultAssignment   = "permutation"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Snapshot: defaultSnapshotPath,
			LogDir:   defaultLogDir,
		},
		Vocabulary: Vocabulary{
			MaxSize: defaultMaxVocabSize,
		},
		Codes: Codes{
			Seed:       defaultSeed,
			Length:     defaultCodeLength,
			Assignment: defaultAssignment,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
