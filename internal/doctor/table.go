package doctor

import (
	"fmt"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/online"
	"github.com/glftpd/glspy/internal/shm"
)

// TableCheck reads and decodes the online table once.
type TableCheck struct {
	Source shm.Reader
}

func (c *TableCheck) Name() string     { return "online_table" }
func (c *TableCheck) Category() string { return CategoryTable }

func (c *TableCheck) Run() CheckResult {
	data, err := c.Source.Read()
	if err != nil {
		if errors.IsCode(err, errors.ErrSnapshot) {
			return warn(c.Name(),
				fmt.Sprintf("No online table at %v", c.Source),
				"glftpd isn't running or nobody is logged in; otherwise check ipc_key against glftpd.conf")
		}
		return fail(c.Name(), err.Error(), "")
	}

	records, err := online.Decode(data)
	if err != nil {
		return fail(c.Name(),
			fmt.Sprintf("Online table at %v doesn't decode: %v", c.Source, err),
			"glspy expects the 64-bit glftpd 2.x layout; the key may belong to another program")
	}

	slots := len(data) / online.RecordSize
	return pass(c.Name(), fmt.Sprintf("%d of %d slots in use at %v", len(records), slots, c.Source))
}

func (c *TableCheck) Fix() error { return nil }
