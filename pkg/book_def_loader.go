package runbook

import (
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// NewDefaultBookFile is the file used when no book file exists on
// disk. It carries no books, so only the generic subcommands work.
func NewDefaultBookFile() *BookFile {
	return &BookFile{
		Books: []*BookDef{},
	}
}

func ReadBookFileFromString(data string) (*BookFile, error) {
	return ReadBookFileFromBytes([]byte(data))
}

func ReadBookFileFromBytes(data []byte) (*BookFile, error) {
	f := &BookFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "yaml.Unmarshal failed")
	}
	return f, nil
}

func ReadBookFileFromFile(path string) (*BookFile, error) {
	log.Debugf("Loading %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist", path)
	}

	yamlBytes, err := ioutil.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("Error while loading %s", path)
	}

	f, err := ReadBookFileFromBytes(yamlBytes)

	if err != nil {
		return nil, errors.Wrapf(err, "Error while loading %s", path)
	}

	return f, nil
}
