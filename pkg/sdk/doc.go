// Package nersearch embeds the nersearch product search pipeline in a Go
// program: free-text queries go through entity extraction, become a
// boolean product query and run against Elasticsearch, Redis or an
// in-memory index.
//
//	client, _ := nersearch.New(ctx,
//	    nersearch.WithElastic("http://localhost:9200"),
//	    nersearch.WithNER("http://localhost:8077", ""),
//	)
//	defer client.Close()
//
//	_ = client.CreateIndex(ctx)
//	_, _ = client.Ingest(ctx, products)
//	res, _ := client.Search(ctx, "blue packable jacket under $150", 5)
package nersearch
