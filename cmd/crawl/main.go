// Command crawl runs a breadth-first web crawl from one seed URL, bounded by
// a page budget, a per-domain depth budget and a domain-hop budget.
//
// Usage:
//
//	crawl [seed] [flags]
//
// Settings come from built-in defaults, an optional YAML file (--config),
// a .env file and CRAWL_* environment variables, and finally flags.
package main

func main() {
	Execute()
}
