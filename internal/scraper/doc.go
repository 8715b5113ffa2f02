// Package scraper downloads monthly ridership tables from the transit agency's
// performance page with a headless Chrome driven by chromedp.
//
// The page is opened, the ridership panel expanded, and every year and month option
// submitted in turn. Each resulting table is appended to a raw CSV file; the header is
// written once, embedded newlines become a literal \n, and "No Data" cells are left
// empty. Requests are paced by PageDelay and rows are flushed after every page, so an
// aborted scrape keeps what it already fetched.
package scraper
