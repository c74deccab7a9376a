package sqlite

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// JSONL file names written by Export and read by Import.
const (
	GamesFile    = "games.jsonl"
	ConsolesFile = "consoles.jsonl"
)

// ExportResult counts the records written or read by Export and Import.
type ExportResult struct {
	Games    int `json:"games"`
	Consoles int `json:"consoles"`
}

// Export writes every game and console to dir as JSONL, one record per line.
// Files are replaced atomically.
func (b *Backend) Export(ctx context.Context, dir string) (ExportResult, error) {
	var res ExportResult

	games, err := b.GetAllGames(ctx)
	if err != nil {
		return res, err
	}
	consoles, err := b.GetAllConsoles(ctx)
	if err != nil {
		return res, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("creating export directory: %w", err)
	}

	if err := writeRecords(filepath.Join(dir, GamesFile), games); err != nil {
		return res, err
	}
	if err := writeRecords(filepath.Join(dir, ConsolesFile), consoles); err != nil {
		return res, err
	}

	res.Games, res.Consoles = len(games), len(consoles)
	b.logger.Info().Str("dir", dir).Int("games", res.Games).Int("consoles", res.Consoles).Msg("catalog exported")
	return res, nil
}

// Import reads games.jsonl and consoles.jsonl from dir and inserts every
// record in one transaction. IDs are kept, so importing the same files twice
// replaces rows instead of duplicating them. A missing file is skipped. On
// any failure nothing is imported.
func (b *Backend) Import(ctx context.Context, dir string) (ExportResult, error) {
	var res ExportResult

	games, err := readRecords[types.GameRecord](filepath.Join(dir, GamesFile))
	if err != nil {
		return res, err
	}
	consoles, err := readRecords[types.ConsoleRecord](filepath.Join(dir, ConsolesFile))
	if err != nil {
		return res, err
	}

	db, err := b.handle()
	if err != nil {
		return res, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	for _, g := range games {
		if err := insertGame(ctx, tx, g); err != nil {
			return res, err
		}
	}
	for _, c := range consoles {
		if err := insertConsole(ctx, tx, c); err != nil {
			return res, err
		}
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing import: %w", err)
	}

	res.Games, res.Consoles = len(games), len(consoles)
	b.logger.Info().Str("dir", dir).Int("games", res.Games).Int("consoles", res.Consoles).Msg("catalog imported")
	return res, nil
}

func writeRecords[T any](path string, records []T) error {
	lines := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		lines = append(lines, data)
	}
	return writeJSONL(path, lines)
}

func readRecords[T any](path string) ([]T, error) {
	lines, err := readJSONL(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]T, 0, len(lines))
	for _, line := range lines {
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			// Valid JSON of the wrong shape is skipped like a malformed line.
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped. Lines have no length limit.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 && json.Valid(line) {
			records = append(records, json.RawMessage(line))
		}
		if err != nil {
			return records, nil
		}
	}
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
