// Package fuzzdex runs approximate string matching against collections
// stored in Redis or Valkey.
//
// A search scores every member of a set, list, hash or sorted set against a
// needle with the Jaccard index of their code-point bigrams and returns the
// best matches, highest similarity first. Hash results carry the field each
// value was stored under; sorted-set results carry the member's score.
//
//	client, _ := fuzzdex.New(fuzzdex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "cities", "東京都", fuzzdex.Limit(5))
//	for _, m := range res.Matches {
//	    fmt.Println(m.Haystack, m.Similarity)
//	}
//
// SearchJSON returns the same result encoded as a JSON array of
// {"haystack", "match"} objects with "score" or "field" for sorted sets and
// hashes.
package fuzzdex
