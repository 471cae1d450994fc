package mailbox

// TotalMessageCount sums ContentCount over root and every descendant
// folder, matching the source's get_total_message_count().
func TotalMessageCount(root Folder) (int, error) {
	total := int(root.ContentCount())
	subs, err := root.Subfolders()
	if err != nil {
		return 0, err
	}
	for _, sub := range subs {
		n, err := TotalMessageCount(sub)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
