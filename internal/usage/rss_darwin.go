//go:build darwin || ios

package usage

// ru_maxrss is reported in bytes.
const rssUnit = 1
