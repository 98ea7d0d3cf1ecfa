// Package mint issues serial numbered notes.
//
// Each note gets an identifier of the form PREFIX-BATCH<sequence><checksum>,
// for example SLS-AA100012. The identifier is stamped into one SVG template
// per side, the result can be rasterized by an external tool, and every
// issued note is appended to a JSON ledger that also drives the next
// sequence of a batch.
//
//	srv, _ := mint.New(mint.WithConfig(cfg))
//	out, _ := srv.Issue(ctx, &issuer.Input{Batch: "AA", Quantity: 10})
//	res, _ := srv.Verify(ctx, "SLS-AA100012")
//
// Services are also registered as actions, see Service.Call.
package mint
