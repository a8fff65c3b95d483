// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"io"
	"reflect"

	"github.com/naoina/toml"

	"github.com/ezrec/rxvm/vm"
)

// Keys are snake case field names, as in the vm.Config toml tags.
// Unknown keys are errors.
var tomlSettings = toml.Config{
	NormFieldName: toml.DefaultConfig.NormFieldName,
	FieldToKey:    toml.DefaultConfig.FieldToKey,
	MissingField: func(rt reflect.Type, field string) error {
		return ErrConfigField(field)
	},
}

// LoadConfig decodes a TOML configuration into cfg. Keys absent from the
// input keep their values in cfg.
//
//	max_steps = 1000000
//	max_depth = 1000000
//	memoize = false
//	cycle = "abort"
func LoadConfig(r io.Reader, cfg *vm.Config) (err error) {
	err = tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(cfg)
	return
}
