package history

// Response is the canned outcome a test arranges for MockDataReader to
// return: either a sequence of records or an error, never both.
type Response struct {
	records []Record
	err     error
}

// Success builds a Response carrying records and no error.
func Success(records ...Record) Response {
	return Response{
		records: records,
	}
}

// Failure builds a Response carrying err.
func Failure(err error) Response {
	return Response{
		err: err,
	}
}

// MockDataReader is a test double for DataReader. It returns whatever
// Response was configured and records every invocation for later
// assertion. Unconfigured, it returns an empty result and no error, so a
// caller that forgot to configure it never hangs or panics.
//
// A MockDataReader belongs to a single test and is not safe for
// concurrent use.
type MockDataReader struct {
	response    Response
	invocations [][]int
}

// Configure sets the Response returned by every subsequent GetHistory
// call. Calling it again replaces the previous Response; the last
// configuration wins.
func (m *MockDataReader) Configure(r Response) {
	m.response = r
}

// GetHistory records a copy of ids and returns the configured Response.
func (m *MockDataReader) GetHistory(ids []int) ([]Record, error) {
	recorded := append(make([]int, 0, len(ids)), ids...)
	m.invocations = append(m.invocations, recorded)

	if m.response.err != nil {
		return nil, m.response.err
	}

	return m.response.records, nil
}

// Invocations returns the recorded calls in call order. The returned
// slices are the recorded snapshots; callers must not mutate them.
func (m *MockDataReader) Invocations() [][]int {
	return m.invocations
}

// VerifyCalledWith reports whether any recorded invocation passed
// exactly ids, element-wise.
func (m *MockDataReader) VerifyCalledWith(ids []int) bool {
	for _, invocation := range m.invocations {
		if equalIDs(invocation, ids) {
			return true
		}
	}

	return false
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

var _ DataReader = (*MockDataReader)(nil)
