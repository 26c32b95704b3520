package submissions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Rating is a 1-5 score. The zero value means the form left it blank.
// It decodes from a JSON number or a numeric string and encodes as a string,
// the shape the survey forms submit.
type Rating int

func (r Rating) String() string {
	if r == 0 {
		return ""
	}
	return strconv.Itoa(int(r))
}

// Int returns the rating as a pointer, nil when blank.
func (r Rating) Int() *int {
	if r == 0 {
		return nil
	}
	n := int(r)
	return &n
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*r = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("rating %s is not a whole number", data)
	}
	if n < 1 || n > 5 {
		return fmt.Errorf("rating %d out of range 1-5", n)
	}

	*r = Rating(n)
	return nil
}
