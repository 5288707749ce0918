package chunker

import "context"

// packSeparator joins consecutive segments inside a pack.
const packSeparator = "\n\n"

// packer greedily merges segments under the size budget.
type packer struct {
	cfg      Config
	est      TokenEstimator
	splitter *semanticSplitter // nil unless semantic splitting is enabled
}

// tooBig reports whether text overflows the budget. Either limit is
// sufficient: tokens when MaxTokens is set, runes always.
func (p *packer) tooBig(text string) bool {
	if p.cfg.MaxTokens > 0 && p.est.EstimateTokens(text) > p.cfg.MaxTokens {
		return true
	}
	return runeLen(text) > p.cfg.MaxChars
}

// pack packs one section's segments in order. A single segment larger than
// the budget becomes its own pack unless it is prose and semantic splitting
// is enabled, in which case its sentence groups each become a pack.
func (p *packer) pack(ctx context.Context, segs []segment) ([]pack, error) {
	var (
		packs []pack
		cur   pack
		parts int
	)

	flush := func() {
		if parts > 0 {
			packs = append(packs, cur)
		}
		cur = pack{}
		parts = 0
	}

	for _, seg := range segs {
		if p.splitter != nil && !seg.isCode && p.tooBig(seg.text) {
			flush()
			spans, err := p.splitter.split(ctx, seg.text)
			if err != nil {
				return nil, err
			}
			for _, span := range spans {
				packs = append(packs, pack{
					text:      span,
					startLine: seg.startLine,
					endLine:   seg.endLine,
				})
			}
			continue
		}

		if parts > 0 && p.tooBig(cur.text+packSeparator+seg.text) {
			flush()
		}

		if parts == 0 {
			cur = pack{text: seg.text, startLine: seg.startLine, endLine: seg.endLine, isCode: seg.isCode}
		} else {
			cur.text += packSeparator + seg.text
			cur.endLine = seg.endLine
			cur.isCode = cur.isCode || seg.isCode
		}
		parts++
	}
	flush()

	return packs, nil
}
