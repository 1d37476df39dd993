// Package selection chooses SARIMAX orders.
//
// Three strategies are provided:
//
//   - ARMAOrderSelectIC tabulates information criteria over ARMA(p,q) and
//     reports the minimising order per criterion.
//   - Brute scores every point of a seven-dimensional (p, d, q, P, D, Q, s)
//     grid. Points whose model cannot be fitted score FailurePenalty, so a
//     single bad combination never aborts the search.
//   - AutoARIMA picks d and D with unit root tests and walks the (p, q, P, Q)
//     neighbourhood of the best model found so far.
//
// # Grid Search
//
//	grid, err := selection.ParseGrid("0:2", "0:1", "0:2", "0:1", "0:0", "0:1", "4:4")
//	if err != nil {
//	    return err
//	}
//	res, err := selection.Brute(ctx, series, grid, selection.BruteOptions{Criterion: "aic"})
//	fmt.Println(res.Best.Point, res.Best.Score)
package selection
