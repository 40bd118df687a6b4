package repos

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type DurationMS time.Duration

func NewDurationMS(millis int64) DurationMS {
	return DurationMS(time.Duration(millis) * time.Millisecond)
}

//goland:noinspection GoMixedReceiverTypes
func (nt DurationMS) Millis() int64 {
	return nt.ToStd().Milliseconds()
}

//goland:noinspection GoMixedReceiverTypes
func (nt DurationMS) Seconds() int {
	return int(nt.ToStd().Seconds())
}

//goland:noinspection GoMixedReceiverTypes
func (nt DurationMS) ToStd() time.Duration {
	return time.Duration(nt)
}

//goland:noinspection GoMixedReceiverTypes
func (nt *DurationMS) Scan(value any) error {
	if value == nil {
		return nil
	}
	var milliseconds int64
	switch value := value.(type) {
	case int:
		milliseconds = int64(value)
	case int32:
		milliseconds = int64(value)
	case int64:
		milliseconds = value
	default:
		return fmt.Errorf("cannot scan %T into DurationMS; expected integer value", value)
	}
	*nt = DurationMS(milliseconds) * DurationMS(time.Millisecond)
	return nil
}

//goland:noinspection GoMixedReceiverTypes
func (nt DurationMS) Value() (driver.Value, error) {
	return time.Duration(nt).Milliseconds(), nil
}
