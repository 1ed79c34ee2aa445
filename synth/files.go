// SPDX-License-Identifier: MIT

package synth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/katalvlaran/mgmatch/matrix"
)

// ManifestName is the file Save writes next to the matrices.
const ManifestName = "instance.json"

// Manifest lists the files of a saved instance, relative to its directory.
type Manifest struct {
	IntWidth    int      `json:"int_width"`
	Template    []string `json:"template"`
	World       []string `json:"world"`
	Sim         string   `json:"sim"`
	Truth       []int    `json:"truth"`
	WorldLabels []int    `json:"world_labels"`
}

// Save writes every matrix in the binary layout of package matrix plus a manifest.
func (in *Instance) Save(dir string, w matrix.IntWidth) (Manifest, error) {
	man := Manifest{IntWidth: int(w), Sim: "sim.dense", Truth: in.Truth, WorldLabels: in.WorldLabels}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return man, errors.Wrap(err, "synth: save")
	}
	for m := range in.Template {
		man.Template = append(man.Template, fmt.Sprintf("template_%d.csr", m))
		man.World = append(man.World, fmt.Sprintf("world_%d.csr", m))
		if err := writeFile(filepath.Join(dir, man.Template[m]), func(f io.Writer) error {
			return matrix.WriteCSR(f, in.Template[m], w)
		}); err != nil {
			return man, err
		}
		if err := writeFile(filepath.Join(dir, man.World[m]), func(f io.Writer) error {
			return matrix.WriteCSR(f, in.World[m], w)
		}); err != nil {
			return man, err
		}
	}
	if err := writeFile(filepath.Join(dir, man.Sim), func(f io.Writer) error {
		return matrix.WriteDense(f, in.Sim, w)
	}); err != nil {
		return man, err
	}

	buf, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return man, errors.Wrap(err, "synth: manifest")
	}

	return man, errors.Wrap(os.WriteFile(filepath.Join(dir, ManifestName), buf, 0o644), "synth: manifest")
}

// Load reads an instance written by Save.
func Load(dir string) (*Instance, error) {
	buf, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, errors.Wrap(err, "synth: load")
	}
	var man Manifest
	if err = json.Unmarshal(buf, &man); err != nil {
		return nil, errors.Wrap(err, "synth: manifest")
	}
	w := matrix.IntWidth(man.IntWidth)

	in := &Instance{Truth: man.Truth, WorldLabels: man.WorldLabels}
	for _, name := range man.Template {
		m, err := ReadCSRFile(filepath.Join(dir, name), w)
		if err != nil {
			return nil, err
		}
		in.Template = append(in.Template, m)
	}
	for _, name := range man.World {
		m, err := ReadCSRFile(filepath.Join(dir, name), w)
		if err != nil {
			return nil, err
		}
		in.World = append(in.World, m)
	}
	if in.Sim, err = ReadDenseFile(filepath.Join(dir, man.Sim), w); err != nil {
		return nil, err
	}

	return in, nil
}

// ReadCSRFile reads one CSR matrix file.
func ReadCSRFile(path string, w matrix.IntWidth) (*matrix.CSR, error) {
	var m *matrix.CSR
	err := readFile(path, func(r io.Reader) error {
		var err error
		m, err = matrix.ReadCSR(r, w)

		return err
	})

	return m, err
}

// ReadDenseFile reads one dense matrix file.
func ReadDenseFile(path string, w matrix.IntWidth) (*matrix.Dense, error) {
	var d *matrix.Dense
	err := readFile(path, func(r io.Reader) error {
		var err error
		d, err = matrix.ReadDense(r, w)

		return err
	})

	return d, err
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "synth: create")
	}
	bw := bufio.NewWriter(f)
	if err = fn(bw); err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return errors.Wrapf(err, "synth: write %s", path)
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "synth: open")
	}
	defer f.Close()

	return errors.Wrapf(fn(bufio.NewReader(f)), "synth: read %s", path)
}
