/*
Package status renders queue activity for humans.

	+-----------+            +------------+
	|   Queue   | snapshots  |   Status   |
	| (numbers) | ---------> | (display)  |
	+-----------+            +------------+

🎯 Purpose:
- Renders byte counts, speeds, and ETAs in human units
- Formats one-line operation summaries for list views
- Narrates operation lifecycle to the log in a friendly voice

📝 Design Philosophy:
The queue speaks in snapshots and raw numbers; this package turns those into
strings. It never reaches back into the queue: callers hand it values, it
hands back text. Keeping the dependency one-way means any frontend (log
stream, table view, progress bar) can share the same vocabulary.

🤝 Interfaces:
- OperationFormatter: Formats operation and progress messages
- Reporter: Logs lifecycle transitions with consistent wording

🔍 Example:

	fmt.Println(status.FormatBytes(1536))                  // "1.5 KB"
	fmt.Println(status.FormatSpeed(2048))                  // "2.0 KB/s"
	fmt.Println(status.FormatETA(90 * time.Second))        // "1m30s"

	reporter := status.NewReporter(&logger)
	reporter.StartOperation(ctx, "copy", "/src/photos", 12, 1<<20)
	reporter.UpdateProgress(ctx, 4, 350*1024)
	reporter.FinishOperation(ctx, "copy", "/src/photos", "completed", nil)
*/
package status
