package util

import (
	"encoding/json"
	"io"
	"io/ioutil"
)

// FullDecode unmarshals a JSON request body and reads the stream to EOF so
// the connection can be reused.
func FullDecode(r io.ReadCloser, obj interface{}) error {
	d := json.NewDecoder(r)
	err := d.Decode(obj)
	// drain the reader completely. ignore the result.
	ioutil.ReadAll(r)
	r.Close()
	return err
}
