// Package devhabit provides a Go client for the DevHabit blog catalog and its
// public search, backed by Redis, Valkey or an embedded SQLite file.
//
// Anonymous readers only ever see published blogs:
//
//	client, _ := devhabit.New(ctx, devhabit.WithSQLite("data/devhabit.db"))
//	defer client.Close()
//
//	page, _ := client.Search(ctx, "learning rust", 1, 10)
//	for _, hit := range page.Items {
//	    fmt.Println(*hit.Relevance, hit.Title)
//	}
//
// Authors maintain the catalog through Blogs():
//
//	b, created, _ := client.Blogs().Upsert(ctx, devhabit.BlogInput{
//	    UserID:      "u_1",
//	    Title:       "Learning Rust",
//	    Content:     "Rust is great.",
//	    IsPublished: true,
//	})
package devhabit
