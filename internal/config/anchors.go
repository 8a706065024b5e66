package config

import (
	"git.home.luguber.info/inful/readmegen/internal/foundation/normalization"
	"git.home.luguber.info/inful/readmegen/internal/reflink"
)

var charsetNormalizer = normalization.NewNormalizer(map[string]reflink.Charset{
	"full":        reflink.CharsetFull,
	"no-brackets": reflink.CharsetNoBrackets,
}, reflink.CharsetFull)

// LinkOptions returns the link derivation options selected by the configuration.
func (c *Config) LinkOptions() reflink.Options {
	return reflink.Options{Charset: charsetNormalizer.Normalize(c.Anchors.Charset)}
}
