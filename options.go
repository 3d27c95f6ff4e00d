package graphview

// Option configures a Viewer during creation.
//
// Example:
//
//	v := graphview.NewViewer(800, 600,
//	    graphview.WithRenderer(raster.New(800, 600)),
//	    graphview.WithPadding(32),
//	)
type Option func(*options)

// options holds optional configuration for Viewer creation.
type options struct {
	renderer Renderer
	padding  float64
	factor   float64
	limits   ScaleLimits
	radius   RadiusPolicy
	observer Observer
}

// defaultOptions returns the default viewer options.
func defaultOptions() options {
	return options{
		padding:  DefaultPadding,
		factor:   DefaultZoomFactor,
		limits:   ScaleLimits{Min: DefaultScaleMin},
		radius:   DefaultRadiusPolicy(),
		observer: NopObserver{},
	}
}

// WithRenderer attaches the initial rendering backend.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithPadding sets the autofit margin in pixels. Negative values are ignored.
func WithPadding(px float64) Option {
	return func(o *options) {
		if px >= 0 {
			o.padding = px
		}
	}
}

// WithZoom sets the per-notch wheel factor and the interactive scale
// limits. A max of zero leaves the scale unbounded above. Invalid values
// keep the defaults.
func WithZoom(factor, minScale, maxScale float64) Option {
	return func(o *options) {
		if factor > 1 {
			o.factor = factor
		}
		l := ScaleLimits{Min: minScale, Max: maxScale}
		if l.validate() == nil {
			o.limits = l
		}
	}
}

// WithRadius sets the node radius policy used for both drawing and hit
// testing.
func WithRadius(p RadiusPolicy) Option {
	return func(o *options) {
		if p.Min > 0 && p.Base > 0 {
			o.radius = p
		}
	}
}

// WithObserver installs a hook notified of draws, layouts and intents.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
