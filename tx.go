package swapd

import (
	"reflect"
	"regexp"

	"github.com/iov-one/swapd/errors"
)

// IsValidPath reports whether the message path is well formed:
// "<extension>/<action>", both parts alphanumeric.
var IsValidPath = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}/[a-zA-Z0-9_]{3,30}$`).MatchString

// Msg is message for the blockchain to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and message is considered
	// invalid.
	// This validation performs only tests that do not require external
	// resources (ie a database).
	Validate() error
}

// Validater is any struct that can be validated.
// Not the same as a Validator, which votes on the blocks.
type Validater interface {
	Validate() error
}

// Marshaller is anything that can be represented in binary
//
// Marshall may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represent the data sent from the user to the chain.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
//
// Each Application must define their own tx type, which
// embeds all the middlewares that we wish to use.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// ExtractMsgFromSum will find a message from a tx sum type if it
// exists. Assuming you define your Tx with protobuf optional pointer
// fields, one per message, and exactly one of them is set, it returns
// that message.
func ExtractMsgFromSum(sum interface{}) (Msg, error) {
	if sum == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "message container is <nil>")
	}
	pval := reflect.ValueOf(sum)
	if pval.Kind() != reflect.Ptr || pval.IsNil() || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid message container value: %T", sum)
	}

	val := pval.Elem()
	var found Msg
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() != reflect.Ptr {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "non pointer field %q in message container %T",
				val.Type().Field(i).Name, sum)
		}
		if field.IsNil() {
			continue
		}
		msg, ok := field.Interface().(Msg)
		if !ok {
			return nil, errors.Wrapf(errors.ErrInvalidType, "field %q of %T is not a message",
				val.Type().Field(i).Name, sum)
		}
		if found != nil {
			return nil, errors.Wrap(errors.ErrInvalidState, "more than one message set")
		}
		found = msg
	}
	if found == nil {
		return nil, errors.Wrap(errors.ErrInvalidState, "message container is empty")
	}
	return found, nil
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidState, "nil message")
	}

	// Reflection is needed here because the destination must be set to a
	// value of the same concrete type as the message. Both have to be
	// pointers.
	if destination == nil {
		return errors.Wrap(errors.ErrInvalidType, "destination must not be nil")
	}
	dval := reflect.ValueOf(destination)
	if dval.Kind() != reflect.Ptr || dval.IsNil() {
		return errors.Wrapf(errors.ErrInvalidType, "destination must be a non nil pointer, got %T", destination)
	}
	mval := reflect.ValueOf(msg)
	if mval.Kind() != reflect.Ptr || mval.IsNil() {
		return errors.Wrapf(errors.ErrInvalidType, "message must be a non nil pointer, got %T", msg)
	}
	if mval.Type() != dval.Type() {
		return errors.Wrapf(errors.ErrInvalidType, "want %T message, got %T", destination, msg)
	}
	dval.Elem().Set(mval.Elem())

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
