// Package notion fetches the primary set from a Notion database.
//
// Client pages through the database query endpoint with the notionapi SDK,
// retrying rate limited and failed requests with backoff (the Retry-After
// header wins when the API sends one). Pages are converted into reconcile
// items: the title property becomes the item name and every typed property
// becomes an attribute, ordered by property name.
//
// # Usage
//
//	client, err := notion.NewClient(cfg.Notion, log)
//	if errors.Is(err, notion.ErrMissingCredentials) {
//	    return err
//	}
//	items, err := client.LoadItems(ctx)
package notion
