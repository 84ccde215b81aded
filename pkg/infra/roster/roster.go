// Package roster reads the class roster CSV into ordered row mappings.
package roster

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/classtools/classlab/pkg/domain/model"
	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Load reads a delimited roster file. The first record is the header and
// provides the column names referenced by templates. Any format problem
// (missing header, ragged row, bad quoting) is fatal for the whole batch.
func Load(path string, comma rune) (*model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open roster file",
			goerr.T(types.ErrTagRoster), goerr.V("path", path))
	}
	defer f.Close()

	r, err := Read(f, comma)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read roster file",
			goerr.V("path", path))
	}
	return r, nil
}

// Read parses roster data from an already opened source.
func Read(src io.Reader, comma rune) (*model.Roster, error) {
	reader := csv.NewReader(src)
	if comma != 0 {
		reader.Comma = comma
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, goerr.New("roster has no header row",
				goerr.T(types.ErrTagRoster))
		}
		return nil, goerr.Wrap(err, "failed to read roster header",
			goerr.T(types.ErrTagRoster))
	}

	seen := make(map[string]bool, len(header))
	for _, column := range header {
		if column == "" {
			return nil, goerr.New("roster header has an empty column name",
				goerr.T(types.ErrTagRoster))
		}
		if seen[column] {
			return nil, goerr.New("roster header has a duplicate column",
				goerr.T(types.ErrTagRoster), goerr.V("column", column))
		}
		seen[column] = true
	}

	roster := &model.Roster{Columns: header}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.Reader reports ragged rows as ErrFieldCount.
			return nil, goerr.Wrap(err, "malformed roster row",
				goerr.T(types.ErrTagRoster), goerr.V("line", line))
		}

		row := make(model.Row, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		roster.Rows = append(roster.Rows, row)
	}

	return roster, nil
}
