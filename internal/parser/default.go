package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/log"
	"gopkg.in/yaml.v3"
)

type DefaultParser struct{}

// Checksum identifies a chart by the bytes of its file
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (p *DefaultParser) Find(directory string) ([]string, error) {
	files := []string{}
	if err := filepath.Walk(directory, func(file string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if !info.IsDir() && path.Ext(info.Name()) == ".qua" {
			files = append(files, file)
		}
		return nil
	}); nil != err {
		return nil, fmt.Errorf("unable to walk map directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read chart: %w", err)
	}

	c, err := p.Decode(bytes.NewReader(data))
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	c.FilePath = file
	c.Checksum = Checksum(data)
	if c.AudioFile != "" {
		c.AudioFile = filepath.Join(filepath.Dir(file), c.AudioFile)
	}
	return c, nil
}

// Decode reads a chart from YAML. The result is not initialized.
func (p *DefaultParser) Decode(r io.Reader) (*game.Chart, error) {
	var q quaFile
	if err := yaml.NewDecoder(r).Decode(&q); nil != err && err != io.EOF {
		return nil, err
	}

	c, err := q.chart()
	if nil != err {
		return nil, err
	}

	if q.BPMDoesNotAffectScrollVelocity {
		log.Debugf("chart %q: bpm does not affect scroll velocity\n", q.Title)
	}
	return c, nil
}
