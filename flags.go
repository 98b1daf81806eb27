package lheplot

import (
	"fmt"
	"strconv"
)

// IntArrayFlags collects repeated integer flag values, e.g. a PDG id
// list given as -id 11 -id -11. Setting the flag once discards the
// default.
type IntArrayFlags struct {
	Array   []int
	beenSet bool
}

func (f *IntArrayFlags) Set(valueStr string) error {
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *IntArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}
