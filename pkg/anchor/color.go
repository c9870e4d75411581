package anchor

import "fmt"

// Color derives a stable #rrggbb color from an anchor id so that every copy
// of one anchor is drawn the same way.
func Color(id string) string {
	var hash int32
	for _, r := range id {
		hash = int32(r) + (hash<<5 - hash)
	}

	color := "#"
	for i := 0; i < 3; i++ {
		color += fmt.Sprintf("%02x", (hash>>(i*8))&0xff)
	}
	return color
}
