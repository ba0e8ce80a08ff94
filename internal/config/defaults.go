package config

// Default file locations, relative to the user's data directory. Each is
// overridable through configuration; see the matching viper keys.
const (
	// DefaultDatabasePath holds the SQLite ledger (database.path).
	DefaultDatabasePath = "$HOME/.local/share/coinwise/coinwise.db"
	// DefaultCorpusPath holds the labeled base training corpus (training.corpus).
	DefaultCorpusPath = "$HOME/.local/share/coinwise/corpus.csv"
	// DefaultCorrectionsPath holds the append-only correction log (training.corrections).
	DefaultCorrectionsPath = "$HOME/.local/share/coinwise/corrections.csv"
	// DefaultModelPath holds the persisted classifier artifact (training.model).
	DefaultModelPath = "$HOME/.local/share/coinwise/classifier.gob"
)

// PathOrDefault expands path, falling back to def when path is empty.
func PathOrDefault(path, def string) string {
	if path == "" {
		path = def
	}
	return ExpandPath(path)
}
