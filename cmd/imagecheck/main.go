// Command imagecheck audits the images of a WordPress site: it walks
// the site's sitemap, probes every image in each page's content area
// and writes the broken or ambiguous ones to a CSV report.
package main

func main() {
	Execute()
}
