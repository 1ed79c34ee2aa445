// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/katalvlaran/mgmatch/matrix"
	"github.com/katalvlaran/mgmatch/restart"
)

var (
	// ErrNotFound is returned when a key is absent.
	ErrNotFound = errors.New("store: not found")
	// ErrEmptyName is returned for an empty counter name.
	ErrEmptyName = errors.New("store: empty counter name")
)

var (
	runPrefix     = []byte("run/")
	counterPrefix = []byte("counter/")
)

// Options configures Open.
type Options struct {
	// Dir is the database directory; empty means in-memory.
	Dir string
	// ReadOnly opens an existing directory without write access.
	ReadOnly bool
}

// Store wraps a Badger DB.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store.
func Open(opts Options) (*Store, error) {
	dbOpts := badger.DefaultOptions(opts.Dir)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false
	if opts.Dir == "" {
		if opts.ReadOnly {
			return nil, errors.New("store: read-only requires a directory")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrap(err, "store: open")
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// StepRecord is the stored form of gmatch.Step.
type StepRecord struct {
	Kind      string  `json:"kind"`
	Alpha     float64 `json:"alpha"`
	Objective float64 `json:"objective"`
}

// RunRecord is the stored form of restart.RunResult. The fractional plan is not kept.
type RunRecord struct {
	ID               uuid.UUID    `json:"id"`
	Index            int          `json:"index"`
	Seed             uint64       `json:"seed"`
	Assignment       []int        `json:"assignment"`
	Iterations       int          `json:"iterations"`
	Converged        bool         `json:"converged"`
	InitialObjective float64      `json:"initial_objective"`
	Objective        float64      `json:"objective"`
	Score            float64      `json:"score"`
	Trace            []StepRecord `json:"trace,omitempty"`
	SavedAt          time.Time    `json:"saved_at"`
}

// NewRunRecord converts a finished run.
func NewRunRecord(r restart.RunResult) RunRecord {
	rec := RunRecord{
		ID:               r.ID,
		Index:            r.Index,
		Seed:             r.Seed,
		Assignment:       append([]int(nil), r.Result.Assignment...),
		Iterations:       r.Result.Iterations,
		Converged:        r.Result.Converged,
		InitialObjective: r.Result.InitialObjective,
		Objective:        r.Result.Objective,
		Score:            r.Result.Score,
		SavedAt:          time.Now().UTC(),
	}
	for _, st := range r.Result.Trace {
		rec.Trace = append(rec.Trace, StepRecord{Kind: st.Kind.String(), Alpha: st.Alpha, Objective: st.Objective})
	}

	return rec
}

func runKey(id uuid.UUID) []byte {
	return append(append([]byte(nil), runPrefix...), id.String()...)
}

func counterKey(name string) []byte {
	return append(append([]byte(nil), counterPrefix...), name...)
}

// SaveRun stores one run under run/<ID>.
func (s *Store) SaveRun(r restart.RunResult) error {
	return s.SaveRecord(NewRunRecord(r))
}

// SaveRecord stores rec under run/<rec.ID>.
func (s *Store) SaveRecord(rec RunRecord) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "store: encode run %s", rec.ID)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rec.ID), buf)
	})

	return errors.Wrapf(err, "store: save run %s", rec.ID)
}

// SaveReport stores every run of rep in one transaction batch.
func (s *Store) SaveReport(rep restart.Report) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, r := range rep.Runs {
		rec := NewRunRecord(r)
		buf, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "store: encode run %s", rec.ID)
		}
		if err = wb.Set(runKey(rec.ID), buf); err != nil {
			return errors.Wrapf(err, "store: save run %s", rec.ID)
		}
	}

	return errors.Wrap(wb.Flush(), "store: flush report")
}

// Run loads one run by ID.
func (s *Store) Run(id uuid.UUID) (RunRecord, error) {
	var rec RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err == badger.ErrKeyNotFound {
		return rec, errors.Wrapf(ErrNotFound, "run %s", id)
	}

	return rec, errors.Wrapf(err, "store: load run %s", id)
}

// Runs returns every stored run ordered by Index, then ID.
func (s *Store) Runs() ([]RunRecord, error) {
	var out []RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         runPrefix,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec RunRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			out = append(out, rec)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "store: list runs")
	}
	sortRecords(out)

	return out, nil
}

// SaveCounter stores k under counter/<name>.
func (s *Store) SaveCounter(name string, k *matrix.Counter) error {
	if name == "" {
		return ErrEmptyName
	}
	var buf bytes.Buffer
	if err := matrix.WriteCounter(&buf, k, matrix.Int64); err != nil {
		return errors.Wrapf(err, "store: encode counter %q", name)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(counterKey(name), buf.Bytes())
	})

	return errors.Wrapf(err, "store: save counter %q", name)
}

// LoadCounter reads counter/<name>.
func (s *Store) LoadCounter(name string) (*matrix.Counter, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	var k *matrix.Counter
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(counterKey(name))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var err error
			k, err = matrix.ReadCounter(bytes.NewReader(val), matrix.Int64)

			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(ErrNotFound, "counter %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: load counter %q", name)
	}

	return k, nil
}

// mergeAttempts bounds MergeCounter retries on transaction conflicts.
const mergeAttempts = 16

// MergeCounter adds k into the stored counter/<name>, creating it when absent.
// The read, merge and write happen in one transaction, retried on conflict.
func (s *Store) MergeCounter(name string, k *matrix.Counter) (*matrix.Counter, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if k == nil {
		return nil, errors.Wrapf(matrix.ErrNilMatrix, "store: merge counter %q", name)
	}
	var (
		cur *matrix.Counter
		err error
	)
	for attempt := 0; attempt < mergeAttempts; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			var txErr error
			cur, txErr = mergeInTxn(txn, name, k)

			return txErr
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: merge counter %q", name)
	}

	return cur, nil
}

func mergeInTxn(txn *badger.Txn, name string, k *matrix.Counter) (*matrix.Counter, error) {
	var cur *matrix.Counter
	item, err := txn.Get(counterKey(name))
	switch {
	case err == badger.ErrKeyNotFound:
		cur = k.Clone()
	case err != nil:
		return nil, err
	default:
		err = item.Value(func(val []byte) error {
			var err error
			cur, err = matrix.ReadCounter(bytes.NewReader(val), matrix.Int64)

			return err
		})
		if err != nil {
			return nil, err
		}
		if err = cur.Merge(k); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err = matrix.WriteCounter(&buf, cur, matrix.Int64); err != nil {
		return nil, err
	}

	return cur, txn.Set(counterKey(name), buf.Bytes())
}
