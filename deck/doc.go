// Package deck presents a teaching deck on time series forecasting.
//
// A deck is a YAML list of slides. Each slide has a title, optional body
// text and bullets, and optionally names a cell: a registered computation
// (stationarity tests, a correlogram, a SARIMAX fit, a grid search) whose
// tables, figures and conclusions are shown below the slide text. Cells
// share a Session holding the loaded data and run strictly in slide order.
//
//	d, err := deck.Load("")               // built-in deck
//	session := deck.NewSession(cfg, rec, logger)
//	p := &deck.Presenter{
//	    Deck:     d,
//	    Session:  session,
//	    Renderer: deck.NewTerminalRenderer(os.Stdout),
//	}
//	err = p.Run(ctx)
//
// A failing cell is shown as an error on its slide and does not stop the
// presentation.
package deck
