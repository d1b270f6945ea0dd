package node

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/beacon-chain/db"
)

// confirmDelete asks on in whether the database should be removed. Only an
// explicit Y clears it.
func confirmDelete(in io.Reader) (bool, error) {
	reader := bufio.NewReader(in)

	log.Warn("This will delete your lean chain database stored in your data directory. " +
		"Do you want to proceed? (Y/N)")

	for {
		fmt.Print(">> ")

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return false, err
		}
		lineInput := strings.ToUpper(strings.TrimSpace(line))
		if lineInput != "Y" && lineInput != "N" {
			log.Errorf("Invalid option of %s chosen, enter Y/N", strings.TrimSpace(line))
			if err == io.EOF {
				return false, err
			}
			continue
		}
		if lineInput == "Y" {
			return true, nil
		}
		log.Info("Database will not be deleted. No changes have been made.")
		return false, nil
	}
}

// clearDB closes d, removes its files and opens an empty database in its place.
func clearDB(ctx context.Context, d db.Database, dbPath string) (db.Database, error) {
	log.Warn("Removing database")
	if err := d.Close(); err != nil {
		return nil, errors.Wrap(err, "could not close db prior to clearing")
	}
	if err := d.ClearDB(); err != nil {
		return nil, errors.Wrap(err, "could not clear database")
	}
	d, err := db.NewDB(ctx, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not create new database")
	}
	return d, nil
}
