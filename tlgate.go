// Package tlgate implements the request pipeline of a caching translation
// gateway.
//
// A Translator admits a request through a RateLimiter, looks it up in a
// TranslationCache and, on a miss, splits the text into provider-sized
// chunks, translates them one by one through a Provider and stores the
// reassembled result.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/ZaguanLabs/tlgate"
//	    "github.com/ZaguanLabs/tlgate/cache"
//	    "github.com/ZaguanLabs/tlgate/provider"
//	)
//
//	func main() {
//	    p := provider.NewArkProvider(provider.ArkConfig{
//	        APIKey: os.Getenv("ARK_API_KEY"),
//	    })
//
//	    t := tlgate.NewTranslator(p,
//	        tlgate.WithCache(cache.NewLRUCache(1000, time.Hour)),
//	        tlgate.WithRateLimiter(tlgate.NewSlidingWindowLimiter(tlgate.DefaultRateLimitConfig())),
//	    )
//
//	    result, err := t.Translate(context.Background(), tlgate.TranslationRequest{
//	        Text:   "Hello World",
//	        Target: "es",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Text) // Hola Mundo
//	}
package tlgate
