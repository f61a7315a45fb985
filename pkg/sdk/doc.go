// Package studentmatch is the embedded SDK for the student-theme ranking
// engine. It wires the scoring pipeline in-process, so Go services can rank
// students without going through the HTTP API.
//
//	client, err := studentmatch.New(ctx,
//		studentmatch.WithEmbedder(myEmbedder),
//		studentmatch.WithMemoryCache(2048),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	ids, err := client.SortStudents(ctx, students, theme, "Backend")
package studentmatch
