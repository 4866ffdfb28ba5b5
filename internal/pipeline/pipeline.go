// Package pipeline runs the cleaning stages for each enrolment category:
// load, dedupe, normalize, sort, split, write.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"aadhaarclean/internal/clean"
	"aadhaarclean/internal/shard"
	"aadhaarclean/internal/store"
	"aadhaarclean/internal/table"
)

// ErrNoInputFiles means a category's input directory holds no CSV files. It is
// a configuration error: the category is not cleaned.
var ErrNoInputFiles = errors.New("no input files")

type Options struct {
	// InputRoot holds one directory per category.
	InputRoot string
	// InputDirs overrides the directory for a category prefix.
	InputDirs map[string]string
	OutputDir string
	MaxRows   int
	WriteXLSX bool
	// SQLitePath enables the SQLite export when non-empty.
	SQLitePath string
}

type Runner struct {
	opts Options
	log  zerolog.Logger
}

func NewRunner(opts Options, log zerolog.Logger) *Runner {
	if opts.MaxRows == 0 {
		opts.MaxRows = shard.DefaultMaxRows
	}
	return &Runner{opts: opts, log: log}
}

// InputDir is where cat's raw files are read from.
func (r *Runner) InputDir(cat Category) string {
	if d, ok := r.opts.InputDirs[cat.Prefix]; ok && d != "" {
		if filepath.IsAbs(d) {
			return d
		}
		return filepath.Join(r.opts.InputRoot, d)
	}
	return filepath.Join(r.opts.InputRoot, cat.InputDir)
}

// Run cleans one category and writes its shards. Outputs of a previous run are
// removed first, so a failed category leaves no shards or SQLite table behind.
func (r *Runner) Run(cat Category) (*Stats, error) {
	log := r.log.With().Str("category", cat.Name).Logger()
	dir := r.InputDir(cat)

	if err := r.clearOutputs(cat); err != nil {
		return nil, fmt.Errorf("%s: remove previous outputs: %w", cat.Name, err)
	}

	paths, err := table.ListCSV(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: list %s: %w", cat.Name, dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w in %s", cat.Name, ErrNoInputFiles, dir)
	}
	log.Info().Int("files", len(paths)).Str("dir", dir).Msg("found input files")

	required := append(append([]string{}, clean.RequiredColumns...), cat.Counters...)
	raw, sources, err := table.Load(paths, required)
	if err != nil {
		return nil, fmt.Errorf("%s: load: %w", cat.Name, err)
	}
	for _, s := range sources {
		log.Debug().Str("file", s.Name).Int("rows", s.Rows).Msg("loaded")
	}
	st := &Stats{
		Dataset:         cat.Name,
		Prefix:          cat.Prefix,
		InputDir:        dir,
		Sources:         sources,
		OriginalRows:    raw.Len(),
		MaxRowsPerShard: r.opts.MaxRows,
	}
	log.Info().Int("rows", st.OriginalRows).Msg("total rows loaded")

	raw.Rows, st.DuplicatesRemoved = clean.Dedupe(raw.Rows)
	log.Info().Int("removed", st.DuplicatesRemoved).Msg("duplicates removed")

	cleaned, fs, err := clean.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: normalize: %w", cat.Name, err)
	}
	st.InvalidStates = fs.InvalidStates
	st.UnparseableDates = fs.UnparseableDates
	st.OverlongPincodes = fs.OverlongPincodes
	st.MissingPincodes = fs.MissingPincodes
	st.TopInvalidValues = topValues(fs.InvalidValues, topInvalidLimit)
	if st.OverlongPincodes > 0 {
		log.Warn().Int("count", st.OverlongPincodes).Msg("pincodes longer than 6 characters kept untruncated")
	}
	log.Info().
		Int("invalid_states", st.InvalidStates).
		Int("unparseable_dates", st.UnparseableDates).
		Msg("fields normalized")

	if err := clean.Sort(cleaned); err != nil {
		return nil, fmt.Errorf("%s: sort: %w", cat.Name, err)
	}
	st.FinalRows = cleaned.Len()
	st.UniqueStates = distinct(cleaned, cleaned.Index(clean.ColState))

	shards, err := shard.Split(cleaned, r.opts.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("%s: split: %w", cat.Name, err)
	}
	if st.Files, err = shard.WriteCSV(r.opts.OutputDir, cat.Prefix, cleaned.Header, shards); err != nil {
		return nil, fmt.Errorf("%s: %w", cat.Name, err)
	}
	for _, w := range st.Files {
		log.Info().Int("part", w.Index).Int("rows", w.Rows).Int64("bytes", w.Bytes).Str("file", w.File).Msg("wrote shard")
	}
	if r.opts.WriteXLSX {
		if st.Workbooks, err = shard.WriteXLSX(r.opts.OutputDir, cat.Prefix, cleaned.Header, shards); err != nil {
			return nil, fmt.Errorf("%s: %w", cat.Name, err)
		}
	}
	if r.opts.SQLitePath != "" {
		name := store.TableName(cat.Prefix)
		if err := store.WriteSQLite(r.opts.SQLitePath, name, cleaned, cat.Counters); err != nil {
			return nil, fmt.Errorf("%s: sqlite export: %w", cat.Name, err)
		}
		st.SQLiteTable = name
		log.Info().Str("table", name).Str("db", r.opts.SQLitePath).Msg("exported to sqlite")
	}

	log.Info().Int("final_rows", st.FinalRows).Int("unique_states", st.UniqueStates).Int("files", len(st.Files)).Msg("category done")
	return st, nil
}

func (r *Runner) clearOutputs(cat Category) error {
	if err := shard.RemoveStale(r.opts.OutputDir, cat.Prefix); err != nil {
		return err
	}
	if r.opts.SQLitePath != "" {
		return store.DropTable(r.opts.SQLitePath, store.TableName(cat.Prefix))
	}
	return nil
}

// RunAll runs each category in turn. A failed category does not stop the
// others; its error is recorded in the returned failures and joined into err.
func (r *Runner) RunAll(cats []Category) ([]*Stats, []Failure, error) {
	var (
		all      []*Stats
		failures []Failure
		errs     []error
	)
	for _, cat := range cats {
		st, err := r.Run(cat)
		if err != nil {
			r.log.Error().Err(err).Str("category", cat.Name).Msg("category failed")
			failures = append(failures, Failure{Dataset: cat.Name, Err: err})
			errs = append(errs, err)
			continue
		}
		all = append(all, st)
	}
	return all, failures, errors.Join(errs...)
}
