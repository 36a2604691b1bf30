package swapd

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/swapd/errors"
)

// Handler is a core engine that can process a few specific messages
// This could represent "coin transfer", or "opening an escrow"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or fee-handling, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Stream expects an array of json elements under the given key and
// returns a function that decodes them one by one. Once all elements are
// consumed, ErrEmpty is returned. Any call after an error returns
// ErrInvalidState.
func (o Options) Stream(key string) (func(obj interface{}) error, error) {
	data, ok := o[key]
	if !ok {
		return nil, errors.Wrapf(errors.ErrEmpty, "no %q key", key)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var started, done bool

	return func(obj interface{}) error {
		if done {
			return errors.Wrap(errors.ErrInvalidState, "stream closed")
		}
		if !started {
			started = true
			tok, err := dec.Token()
			if err != nil {
				done = true
				return errors.Wrap(errors.ErrInvalidInput, err.Error())
			}
			if d, ok := tok.(json.Delim); !ok || d != '[' {
				done = true
				return errors.Wrapf(errors.ErrInvalidInput, "%q is not a list", key)
			}
		}
		if !dec.More() {
			done = true
			return errors.Wrap(errors.ErrEmpty, "end of list")
		}
		if err := dec.Decode(obj); err != nil {
			done = true
			return errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		return nil
	}, nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
