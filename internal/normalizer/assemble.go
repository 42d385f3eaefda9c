package normalizer

import "viznorm/internal/models"

// assemble folds builder output into the canonical spec. Series without a
// single drawable point are dropped; a recognized shape that yields
// nothing drawable resolves to empty_data so callers can tell "nothing to
// draw" apart from a drawable chart that happens to be small.
func assemble(out builderOutput, source any) (*models.ChartSpec, *Error) {
	kept := make([]models.ChartSeries, 0, len(out.series))
	for _, s := range out.series {
		if s.PointCount() > 0 {
			kept = append(kept, s)
		}
	}

	if len(kept) == 0 {
		return nil, newError(ErrorKindEmptyData, source, "no drawable series in visualization payload")
	}

	spec := &models.ChartSpec{
		Series: kept,
		Layout: out.layout,
	}

	if len(out.raw) > 0 {
		spec.Raw = out.raw
	}

	return spec, nil
}
