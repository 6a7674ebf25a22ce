// Package hotelsearch provides an embeddable Go client for hotel search
// over an Elasticsearch 7 hotel index.
//
// The client runs the same query construction and projection as the
// hotelsearch HTTP service, without the HTTP hop.
//
//	client, _ := hotelsearch.New(hotelsearch.WithElasticsearch("http://localhost:9200"))
//	page, _ := client.Search(ctx, hotelsearch.Criteria{Keyword: "外滩", City: "上海"})
//
// # Fluent queries
//
//	page, _ := client.Query().
//	    Keyword("如家").
//	    Stars("四星").
//	    Price(200, 600).
//	    Near(31.21, 121.5).
//	    Page(1, 20).
//	    Do(ctx)
package hotelsearch
