package blueprint

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"factoriobp.io/internal/encoding"
)

// Version is the map version a blueprint was saved in. On the wire it is
// one packed 64-bit integer.
type Version struct {
	Major     uint16
	Minor     uint16
	Patch     uint16
	Developer uint16
}

func VersionFromUint64(v uint64) Version {
	maj, mnr, pat, dev := encoding.UnpackVersion(v)
	return Version{Major: maj, Minor: mnr, Patch: pat, Developer: dev}
}

func (v Version) Uint64() uint64 {
	return encoding.PackVersion(v.Major, v.Minor, v.Patch, v.Developer)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Developer)
}

func (v Version) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, v.Uint64(), 10), nil
}

func (v *Version) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		var ok bool
		if n, ok = integralUint64(string(b)); !ok {
			return &json.UnmarshalTypeError{
				Value: "number " + string(b),
				Type:  reflect.TypeOf(Version{}),
			}
		}
	}
	*v = VersionFromUint64(n)
	return nil
}

// integralUint64 accepts JSON numbers such as 1.0 or 2.8e14 whose value is
// an integer in uint64 range.
func integralUint64(s string) (uint64, bool) {
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, false
	}
	n, acc := f.Uint64()
	return n, acc == big.Exact
}
