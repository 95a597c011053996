// Package pdfctx provides an in-process Go client for a pdfctx dataset file,
// answering the same queries as the HTTP server without running it.
//
//	client, _ := pdfctx.New(pdfctx.WithDataset("data/embeddings.json"))
//	res, _ := client.Search(ctx, "revenue", 5)
//	for _, hit := range res.Results {
//	    fmt.Println(hit.ID, hit.Page, hit.Snippet)
//	}
//
// The dataset is re-read on every call, so a file rewritten by
// pdfctx-embed is picked up without reopening the client.
package pdfctx
