package ensek

import "testing"

func TestSummarizeHTMLError(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title and heading",
			html: `<html><head><title>500 - Server Error</title></head><body><h1>Runtime Error</h1><p>detail</p></body></html>`,
			want: "500 - Server Error: Runtime Error",
		},
		{
			name: "duplicate heading collapsed",
			html: `<html><head><title>Bad Request</title></head><body><h1>Bad Request</h1></body></html>`,
			want: "Bad Request",
		},
		{
			name: "body fallback",
			html: `<html><body>   something   broke   </body></html>`,
			want: "something broke",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SummarizeHTMLError(tc.html); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
