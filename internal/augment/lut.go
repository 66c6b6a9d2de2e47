package augment

import "sync"

// hueSatTables are the precomputed add tables: row shift+255, column input
// value. The hue table wraps (hue is angular, values live in [0, 180)); the
// saturation table clips to [0, 255].
type hueSatTables struct {
	hue [511][256]uint8
	sat [511][256]uint8
}

var (
	hueSatOnce sync.Once
	hueSatTbls *hueSatTables
)

// hueSatLUT returns the process-wide tables, built once on first use.
// sync.Once guards construction so concurrent callers never observe a
// partially built table.
func hueSatLUT() *hueSatTables {
	hueSatOnce.Do(func() {
		t := &hueSatTables{}
		for shift := -255; shift <= 255; shift++ {
			row := shift + 255
			for v := 0; v < 256; v++ {
				h := (v + shift) % 180
				if h < 0 {
					h += 180
				}
				t.hue[row][v] = uint8(h)

				s := v + shift
				if s < 0 {
					s = 0
				} else if s > 255 {
					s = 255
				}
				t.sat[row][v] = uint8(s)
			}
		}
		hueSatTbls = t
	})
	return hueSatTbls
}
