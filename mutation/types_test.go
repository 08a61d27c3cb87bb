package mutation

import "testing"

func TestCommitLogPositionCompare(t *testing.T) {
	cases := []struct {
		a, b CommitLogPosition
		want int
	}{
		{CommitLogPosition{1, 0}, CommitLogPosition{2, 0}, -1},
		{CommitLogPosition{2, 0}, CommitLogPosition{1, 0}, 1},
		{CommitLogPosition{1, 5}, CommitLogPosition{1, 10}, -1},
		{CommitLogPosition{1, 10}, CommitLogPosition{1, 5}, 1},
		{CommitLogPosition{1, 10}, CommitLogPosition{1, 10}, 0},
	}

	for _, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCommitLogPositionString(t *testing.T) {
	p := CommitLogPosition{SegmentID: 42, Position: 1024}
	if got, want := p.String(), "42:1024"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRowDataSplitsByKind(t *testing.T) {
	row := RowData{Cells: []CellData{
		{Name: "pk1", Value: "a", Kind: PartitionKey},
		{Name: "ck1", Value: int64(1), Kind: ClusteringKey},
		{Name: "pk2", Value: "b", Kind: PartitionKey},
	}}

	if got := row.PartitionValues(); len(got) != 2 {
		t.Fatalf("PartitionValues() len = %d, want 2", len(got))
	}
	if got := row.ClusteringValues(); len(got) != 1 {
		t.Fatalf("ClusteringValues() len = %d, want 1", len(got))
	}
}

func TestOperationString(t *testing.T) {
	if OpInsert.String() != "INSERT" || OpUpdate.String() != "UPDATE" || OpDelete.String() != "DELETE" {
		t.Fatal("unexpected Operation.String() output")
	}
}
