// Package catalog stores named selection plans in a bolt database.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/openkvlab/boltdb"

	"colselect-go/config"
	"colselect-go/logging"
	"colselect-go/plan"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrEmptyName    = errors.New("plan name must not be empty")
)

var plansBucket = []byte("plans")

type Options = boltdb.Options

type Catalog struct {
	db     *boltdb.DB
	logger log.Logger
}

func Open(path string, opts *Options, logger log.Logger) (*Catalog, error) {
	bdb, err := boltdb.Open(path, 0o600, opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	err = bdb.Update(func(tx *boltdb.Tx) error {
		_, err := tx.CreateBucketIfNotExists(plansBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}
	return &Catalog{db: bdb, logger: logging.OrNop(logger)}, nil
}

// OpenFromConfig opens the catalog named by the catalog section of cfg.
func OpenFromConfig(cfg *config.Config, logger log.Logger) (*Catalog, error) {
	return Open(cfg.Catalog.Path, &Options{
		Timeout: time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
	}, logger)
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores n under name, replacing any previous plan. Plans that do not
// compile are refused.
func (c *Catalog) Put(name string, n *plan.Node) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, err := plan.Compile(n); err != nil {
		return err
	}
	data, err := plan.MarshalMsgpack(n)
	if err != nil {
		return err
	}
	err = c.db.Update(func(tx *boltdb.Tx) error {
		return tx.Bucket(plansBucket).Put([]byte(name), data)
	})
	if err != nil {
		return err
	}
	level.Debug(c.logger).Log("msg", "saved plan", "name", name, "bytes", len(data))
	return nil
}

func (c *Catalog) Get(name string) (*plan.Node, error) {
	var data []byte
	err := c.db.View(func(tx *boltdb.Tx) error {
		v := tx.Bucket(plansBucket).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrPlanNotFound, name)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan.UnmarshalMsgpack(data)
}

func (c *Catalog) Delete(name string) error {
	err := c.db.Update(func(tx *boltdb.Tx) error {
		b := tx.Bucket(plansBucket)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrPlanNotFound, name)
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return err
	}
	level.Debug(c.logger).Log("msg", "deleted plan", "name", name)
	return nil
}

// List returns the stored plan names in byte order.
func (c *Catalog) List() ([]string, error) {
	var names []string
	err := c.db.View(func(tx *boltdb.Tx) error {
		return tx.Bucket(plansBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Exists reports whether the catalog file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
