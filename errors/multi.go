package errors

import "strings"

// Append combines many errors into a single one. Nil values are ignored. If
// no error remains, nil is returned. If exactly one error remains, it is
// returned as it is.
//
// Use it to collect all validation issues of a message at once.
func Append(errs ...error) error {
	var all multiErr
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			all = append(all, m...)
		} else {
			all = append(all, err)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack returns all grouped errors.
func (m multiErr) Unpack() []error {
	return m
}

// ABCICode of a group is the code of the first error. All grouped errors can
// be tested with Is.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}
