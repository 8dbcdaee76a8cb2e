// Package catalog implements the storage-facing core of the catalog admin
// console: catalog item records live in a DocumentStore, their image assets
// in a BlobStore, and the service keeps the two in step across create,
// update and delete.
//
// The package is transport-agnostic. HTTP handlers live in
// pkg/catalog/api, store implementations in pkg/catalog/repo (documents)
// and pkg/catalog/storage (blobs).
//
// Basic usage:
//
//	svc, err := catalog.New(
//	    catalog.WithDocumentStore(memory.New()),
//	    catalog.WithBlobStore("memory", memorystorage.New()),
//	)
//	if err != nil { ... }
//
//	item, err := svc.CreateItem(ctx, catalog.CreateItemRequest{
//	    Name:  "Kambing Etawa",
//	    Asset: &catalog.AssetUpload{Data: f, ContentType: "image/jpeg", FileName: "etawa.jpg"},
//	})
//
// Listing is cursor-based and session-scoped. A Pager owns the cursor for
// one listing session; two sessions never share pagination state:
//
//	pager := catalog.NewPager(svc)
//	page, err := pager.FirstPage(ctx)
//	for pager.HasMore() {
//	    page, err = pager.NextPage(ctx)
//	}
package catalog
