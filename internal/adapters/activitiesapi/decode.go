package activitiesapi

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"portal/internal/domain/activity"
)

// decodeCollection turns the GET /activities object into an ordered collection.
// gjson walks object members in document order, which is the order the service inserted them.
func decodeCollection(body []byte) (activity.Collection, error) {
	if !gjson.ValidBytes(body) {
		return activity.Collection{}, errors.New("activities response is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return activity.Collection{}, fmt.Errorf("activities response is a %s, want object", root.Type)
	}

	var (
		acts    []activity.Activity
		walkErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		a, err := decodeActivity(key.String(), value)
		if err != nil {
			walkErr = err
			return false
		}
		acts = append(acts, a)
		return true
	})
	if walkErr != nil {
		return activity.Collection{}, walkErr
	}
	return activity.NewCollection(acts...)
}

func decodeActivity(name string, v gjson.Result) (activity.Activity, error) {
	if !v.IsObject() {
		return activity.Activity{}, fmt.Errorf("activity %q is not an object", name)
	}
	maxP := v.Get("max_participants")
	if maxP.Type != gjson.Number {
		return activity.Activity{}, fmt.Errorf("activity %q: max_participants is not a number", name)
	}
	parts := v.Get("participants")
	if parts.Exists() && !parts.IsArray() {
		return activity.Activity{}, fmt.Errorf("activity %q: participants is not an array", name)
	}

	a := activity.Activity{
		Name:            name,
		Description:     v.Get("description").String(),
		Schedule:        v.Get("schedule").String(),
		MaxParticipants: int(maxP.Int()),
		Participants:    []string{},
	}
	for _, p := range parts.Array() {
		a.Participants = append(a.Participants, p.String())
	}
	return a, nil
}

// decodeMessage extracts {"message": "..."} from a success body; missing or malformed gives "".
func decodeMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "message").String()
}

// decodeDetail extracts the service's failure detail.
// A string detail is used as-is; a validation error list yields its first "msg".
func decodeDetail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	d := gjson.GetBytes(body, "detail")
	switch {
	case d.Type == gjson.String:
		return d.String()
	case d.IsArray():
		return d.Get("0.msg").String()
	default:
		return ""
	}
}
