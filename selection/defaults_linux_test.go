package selection

import (
	"reflect"
	"testing"
)

func TestDefaultReaderLeavesPrimaryOptIn(t *testing.T) {
	r := DefaultReader(Options{})
	if got := r.For("gedit").Strategies(); !reflect.DeepEqual(got, []string{Clipboard}) {
		t.Errorf("gedit chain = %v", got)
	}
	r = r.WithPolicy(Policy{"xterm": {Primary, Clipboard}})
	if got := r.For("xterm").Strategies(); !reflect.DeepEqual(got, []string{Primary, Clipboard}) {
		t.Errorf("xterm chain = %v", got)
	}
}
