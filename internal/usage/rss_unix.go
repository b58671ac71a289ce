//go:build unix && !darwin && !ios

package usage

// ru_maxrss is reported in kilobytes.
const rssUnit = 1024
