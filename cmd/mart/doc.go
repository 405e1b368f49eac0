// Command mart runs and administers the Eburutu Mart API.
//
//	mart serve             # start the HTTP server
//	mart migrate           # run pending migrations
//	mart migrate:rollback  # undo the last batch
//	mart migrate:status
//	mart seed              # load the demo marketplace
//	mart route:list        # list API routes
//
// Configuration comes from config/app.json, .env and the environment.
package main
