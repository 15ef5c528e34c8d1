package code

// serverest-e2e 编排层错误（1200xx）：服务12 + 模块00 + 序号
const (
	// ErrConfiguration - 500: Required credential or static configuration is missing.
	ErrConfiguration int = iota + 120001

	// ErrAuthenticationFailure - 401: Login did not return 200.
	ErrAuthenticationFailure

	// ErrNotFound - 404: A name or identifier lookup yielded no match.
	ErrNotFound

	// ErrUnexpectedResponse - 502: Status or body does not match the operation contract.
	ErrUnexpectedResponse

	// ErrTransport - 503: The request never produced an HTTP response.
	ErrTransport

	// ErrDecodeResponse - 502: The response body is not the documented JSON.
	ErrDecodeResponse
)

// 结果文件与对比工具（1201xx）
const (
	// ErrResultIO - 500: Reading or writing a results file failed.
	ErrResultIO int = iota + 120101

	// ErrRegression - 500: The current run regressed against the baseline.
	ErrRegression
)

func init() {
	register(ErrConfiguration, 500, "Configuration error")
	register(ErrAuthenticationFailure, 401, "Authentication failure")
	register(ErrNotFound, 404, "Resource not found")
	register(ErrUnexpectedResponse, 502, "Unexpected response")
	register(ErrTransport, 503, "Transport failure")
	register(ErrDecodeResponse, 502, "Response body could not be decoded")

	register(ErrResultIO, 500, "Result file error")
	register(ErrRegression, 500, "Regression detected against baseline")
}
